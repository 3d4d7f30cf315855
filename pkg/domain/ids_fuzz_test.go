package domain

import "testing"

// FuzzParseCityID checks that parsing never panics and that every accepted
// input round-trips through String.
func FuzzParseCityID(f *testing.F) {
	f.Add("")
	f.Add("1")
	f.Add("0")
	f.Add("-1")
	f.Add("9223372036854775807")
	f.Add("9223372036854775808")
	f.Add("'; DROP TABLE city;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCityID(input)
		if err != nil {
			return
		}
		if id.IsNil() {
			t.Fatalf("accepted nil id for %q", input)
		}
		roundTrip, err := ParseCityID(id.String())
		if err != nil {
			t.Fatalf("valid id failed round-trip: %v", err)
		}
		if roundTrip != id {
			t.Fatalf("round-trip changed id: %d != %d", roundTrip, id)
		}
	})
}
