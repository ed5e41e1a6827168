package goat

import (
	"encoding/json"
	"testing"
)

func TestRandIdRoundTrip(t *testing.T) {
	ids := []RandId{
		{},
		{lo: 1},
		{lo: 0xffffffffffffffff, hi: 0xffffffff},
		{lo: 0x123456789abcdef0, hi: 0x0fedcba9},
		RandIdFromHash([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}),
	}
	for i := 0; i < 100; i++ {
		ids = append(ids, NewRandId())
	}
	for _, id := range ids {
		s := id.String()
		if len(s) != 16 {
			t.Fatalf("display %q has length %d", s, len(s))
		}
		parsed, err := ParseRandId(s)
		if err != nil {
			t.Fatalf("ParseRandId(%q): %v", s, err)
		}
		if parsed != id {
			t.Fatalf("round trip of %q: %+v != %+v", s, parsed, id)
		}
	}
}

func TestRandIdAlphabet(t *testing.T) {
	// The alphabet is ordered by byte value: '.', '/', digits, uppercase,
	// lowercase; decoding is three range checks.
	var prev byte
	for v := byte(0); v < 64; v++ {
		c := encodeId(v)
		if v > 0 && c <= prev {
			t.Fatalf("alphabet not ordered at %d: %c <= %c", v, c, prev)
		}
		prev = c
		back, ok := decodeId(c)
		if !ok || back != v {
			t.Fatalf("decode(encode(%d)) = %d, %v", v, back, ok)
		}
	}
	if encodeId(0) != '.' || encodeId(11) != '9' || encodeId(12) != 'A' ||
		encodeId(37) != 'Z' || encodeId(38) != 'a' || encodeId(63) != 'z' {
		t.Fatalf("alphabet endpoints wrong")
	}
	if _, err := ParseRandId("!!!!!!!!!!!!!!!!"); err == nil {
		t.Fatalf("junk should not parse")
	}
	if _, err := ParseRandId("short"); err == nil {
		t.Fatalf("short string should not parse")
	}
}

func TestUserIdFromSecret(t *testing.T) {
	a := UserIdFromSecret("hunter2")
	b := UserIdFromSecret("hunter2")
	c := UserIdFromSecret("hunter3")
	if a != b {
		t.Fatalf("hashing is not stable")
	}
	if a == c {
		t.Fatalf("distinct secrets collide")
	}
}

func TestIdJSON(t *testing.T) {
	id := NewGameId()
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 18 {
		t.Fatalf("marshaled id %s has length %d", data, len(data))
	}
	var parsed GameId
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed != id {
		t.Fatalf("round trip: %s != %s", parsed, id)
	}
}
