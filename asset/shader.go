package asset

import (
	"os"

	"github.com/pkg/errors"
)

// ValidateSPIRV checks the one property the driver relies on: the code is a
// non-empty sequence of 32-bit words.
func ValidateSPIRV(code []byte) error {
	if len(code) == 0 || len(code)%4 != 0 {
		return errors.Wrapf(ErrInvalidShader, "%d bytes", len(code))
	}
	return nil
}

// ReadShader reads SPIR-V byte code from path.
func ReadShader(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read shader")
	}
	if err := ValidateSPIRV(code); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return code, nil
}
