package model

import "fmt"

// ContractError reports a caller contract violation: a record-level key the
// engines require was entirely absent. Parse failures and missing business
// data never produce this; they become issues or rule skips instead.
type ContractError struct {
	Key string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("missing required structural key: %s", e.Key)
}

// NewContractError creates a ContractError for the named structural key.
func NewContractError(key string) error {
	return &ContractError{Key: key}
}
