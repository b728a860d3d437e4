package validation

import (
	"errors"
	"testing"
)

func TestValidateEnvelopeEntity(t *testing.T) {
	if err := ValidateEnvelope(ShapeEntity, []byte(`{"success":true,"data":{"id":7,"nom":"Audit"}}`)); err != nil {
		t.Fatalf("expected valid entity envelope, got %v", err)
	}
}

func TestValidateEnvelopeRejectsMissingData(t *testing.T) {
	err := ValidateEnvelope(ShapeEntity, []byte(`{"success":true,"message":"ok"}`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if len(Issues(err)) == 0 {
		t.Fatal("expected issues to be reported")
	}
}

func TestValidateEnvelopeRejectsFractionalIDs(t *testing.T) {
	err := ValidateEnvelope(ShapeList, []byte(`{"data":[{"id":1},{"id":2.5}]}`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}

func TestValidateEnvelopeNoneAcceptsBareMessage(t *testing.T) {
	if err := ValidateEnvelope(ShapeNone, []byte(`{"success":true,"message":"Supprimé"}`)); err != nil {
		t.Fatalf("expected delete envelope to pass, got %v", err)
	}
}

func TestValidateEnvelopeRejectsInvalidJSON(t *testing.T) {
	err := ValidateEnvelope(ShapeAny, []byte(`<html>`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}
