package domain

import (
	"encoding/json"
	"testing"
)

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var quoted struct {
		Price Money `json:"price"`
	}
	if err := json.Unmarshal([]byte(`{"price":"150000.00"}`), &quoted); err != nil {
		t.Fatalf("quoted: %v", err)
	}
	if quoted.Price != "150000.00" {
		t.Fatalf("quoted price = %q", quoted.Price)
	}

	var bare struct {
		Price Money `json:"price"`
	}
	if err := json.Unmarshal([]byte(`{"price":150000}`), &bare); err != nil {
		t.Fatalf("bare: %v", err)
	}
	if bare.Price.Float() != 150000 {
		t.Fatalf("bare price = %v", bare.Price)
	}
}

func TestMoneyMarshalsAsString(t *testing.T) {
	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: "99.50"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"amount":"99.50"}` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestTimeUnmarshalAcceptsAPIShapes(t *testing.T) {
	cases := []string{
		`"2026-08-21T10:30:00.123456Z"`,
		`"2026-08-21T10:30:00Z"`,
		`"2026-08-21T10:30:00.123456"`,
		`"2026-08-21T10:30:00"`,
		`"2026-08-21"`,
	}
	for _, raw := range cases {
		var ts Time
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if ts.IsZero() {
			t.Fatalf("unmarshal %s produced zero time", raw)
		}
		if ts.Year() != 2026 || ts.Month() != 8 || ts.Day() != 21 {
			t.Fatalf("unmarshal %s landed on %s", raw, ts)
		}
	}
}

func TestTimeUnmarshalRejectsGarbage(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"next tuesday"`), &ts); err == nil {
		t.Fatal("expected error for unparseable time")
	}
}

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"buyer":  RoleBuyer,
		"SELLER": RoleSeller,
		" admin": RoleAdmin,
	} {
		got, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseRole("landlord"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("Bank_Transfer")
	if err != nil {
		t.Fatal(err)
	}
	if got != PayBankTransfer {
		t.Fatalf("got %q", got)
	}
	if _, err := ParsePaymentMethod("barter"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestPaymentMethodLabels(t *testing.T) {
	if PayCard.Label() != "Credit/Debit Card" {
		t.Fatalf("card label = %q", PayCard.Label())
	}
	if PayMobileMoney.Label() != "Mobile Money" {
		t.Fatalf("mobile money label = %q", PayMobileMoney.Label())
	}
}

func TestPropertyImagesSkipsEmptySlots(t *testing.T) {
	p := Property{Image1: "/media/a.jpg", Image3: "/media/c.jpg"}
	images := p.Images()
	if len(images) != 2 {
		t.Fatalf("len(images) = %d", len(images))
	}
	if images[0] != "/media/a.jpg" || images[1] != "/media/c.jpg" {
		t.Fatalf("images = %v", images)
	}
}

func TestUserFullNameFallsBackToUsername(t *testing.T) {
	u := User{Username: "asha"}
	if u.FullName() != "asha" {
		t.Fatalf("FullName = %q", u.FullName())
	}
	u.FirstName, u.LastName = "Asha", "Mkumbo"
	if u.FullName() != "Asha Mkumbo" {
		t.Fatalf("FullName = %q", u.FullName())
	}
}
