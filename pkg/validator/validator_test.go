package validator

import (
	"testing"

	"github.com/google/uuid"
)

type receiveBody struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitType  string    `json:"unit_type" validate:"required,unit_type"`
	Buying    *float64  `json:"buying_price" validate:"required"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	price := 10.0
	ok := receiveBody{ProductID: uuid.New(), Quantity: 2, UnitType: "pack", Buying: &price}
	if errs := ValidateStruct(ok); len(errs) != 0 {
		t.Fatalf("expected no errors, got %s", Message(errs))
	}

	missing := ok
	missing.Buying = nil
	errs := ValidateStruct(missing)
	if len(errs) != 1 || errs[0].FailedField != "buying_price" || errs[0].Tag != "required" {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if Message(errs) != "Validation failed: 'buying_price' is required" {
		t.Fatalf("unexpected message %q", Message(errs))
	}
}

func TestCustomTags(t *testing.T) {
	price := 1.0
	body := receiveBody{ProductID: uuid.Nil, Quantity: 1, UnitType: "crate", Buying: &price}
	errs := ValidateStruct(body)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Tag != "uuid_required" || errs[1].Tag != "unit_type" {
		t.Fatalf("unexpected tags %s, %s", errs[0].Tag, errs[1].Tag)
	}
	if Message(nil) != "" {
		t.Fatalf("expected empty message for no errors")
	}
}
