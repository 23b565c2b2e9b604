// Package validate checks merged records before they enter reconciliation:
// struct-level rules plus Spanish tax ID and cadastral reference checksums.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/velocitatem/concordia/internal/model"
)

// Validator wraps a configured struct validator. It is safe for concurrent
// use.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the custom tag rules and returns a ready Validator.
func NewValidator() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
		return ValidTaxID(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register taxid rule: %w", err)
	}
	if err := v.RegisterValidation("cadastral", func(fl validator.FieldLevel) bool {
		return ValidCadastralRef(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register cadastral rule: %w", err)
	}

	return &Validator{v: v}, nil
}

// ValidateRecord runs the tag rules over a record. The returned error lists
// every failing field so the caller can log one line per record.
func (vd *Validator) ValidateRecord(rec *model.SourceRecord) error {
	if rec == nil {
		return model.NewContractError("record")
	}
	err := vd.v.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate record: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s rule (value %q)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("record %s invalid: %s", rec.DocumentID, strings.Join(msgs, "; "))
}
