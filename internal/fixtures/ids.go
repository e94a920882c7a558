package fixtures

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OutputRoot is the top-level directory the format prescribes.
const OutputRoot = "OPENFRMT"

const primaryIDModulus = 1_000_000_000_000_000

// NewPrimaryID returns a fresh 15-digit file identifier (field 1004).
func NewPrimaryID() string {
	return PrimaryID(uuid.New())
}

// PrimaryID folds id into 15 decimal digits.
func PrimaryID(id uuid.UUID) string {
	n := binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
	return fmt.Sprintf("%015d", n%primaryIDModulus)
}

// OutputSegments returns the sub-path OPENFRMT, <first 8 VAT digits>.<YY>, <MMDDhhmm>.
func OutputSegments(vat string, at time.Time) []string {
	first8 := vat
	if len(first8) < 8 {
		first8 = strings.Repeat("0", 8-len(first8)) + first8
	}
	first8 = first8[:8]
	return []string{
		OutputRoot,
		fmt.Sprintf("%s.%s", first8, at.Format("06")),
		at.Format("01021504"),
	}
}

// OutputPath is the sub-path as written into A000, with DOS separators.
func OutputPath(vat string, at time.Time) string {
	s := OutputSegments(vat, at)
	return s[0] + `\` + s[1] + `\` + s[2]
}

// OutputDir joins the sub-path onto root using the host separator.
func OutputDir(root, vat string, at time.Time) string {
	return filepath.Join(append([]string{root}, OutputSegments(vat, at)...)...)
}
