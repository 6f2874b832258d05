package postgres

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// CodePrefix starts every generated transaction code.
const CodePrefix = "SKY"

const codeSuffixLen = 6

// CodeGenerator builds reference codes such as SKY260310150000K7QX2M: the
// prefix, the wall clock in the ledger timezone and six Crockford base32
// characters taken from the random part of a ULID.
type CodeGenerator struct {
	location *time.Location
}

// NewCodeGenerator creates a CodeGenerator stamping codes in location.
func NewCodeGenerator(location *time.Location) *CodeGenerator {
	if location == nil {
		location = time.UTC
	}
	return &CodeGenerator{location: location}
}

// Generate returns a new code for now. Codes are not guaranteed unique; the
// unique index on transactions.code decides.
func (g *CodeGenerator) Generate(now time.Time) string {
	id := ulid.Make().String()

	var b strings.Builder
	b.Grow(len(CodePrefix) + 12 + codeSuffixLen)
	b.WriteString(CodePrefix)
	b.WriteString(now.In(g.location).Format("060102150405"))
	b.WriteString(id[len(id)-codeSuffixLen:])
	return b.String()
}
