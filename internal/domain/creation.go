package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Field limits enforced by the metadata program and the creation flow.
// Name, symbol and uri limits count UTF-8 bytes, as the program does.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	// MaxCreateDecimals is the decimals ceiling for newly created tokens.
	MaxCreateDecimals = 9
	// MaxTokenDecimals is the widest decimals value accepted for existing mints.
	MaxTokenDecimals = 18
)

var wholeNumber = regexp.MustCompile(`^\d+$`)

// MetadataMode selects where the metadata URI comes from.
type MetadataMode string

const (
	MetadataUpload MetadataMode = "upload"
	MetadataURL    MetadataMode = "url"
)

// MetadataSource describes how to obtain the metadata URI.
// In upload mode Image (optional) and Description are sent to the upload
// collaborator; in url mode URI is used as-is.
type MetadataSource struct {
	Mode        MetadataMode
	Image       []byte
	ImageName   string
	ImageType   string
	Description string
	URI         string
}

// TokenCreationRequest is the input to the creation builder.
// It is consumed once and must not be mutated after submission.
type TokenCreationRequest struct {
	Name           string
	Symbol         string
	Decimals       int
	TotalSupply    string // whole units before applying decimals
	MetadataSource MetadataSource
	Plan           Plan
}

// Normalize trims fields and canonicalizes the symbol to upper case.
func (r TokenCreationRequest) Normalize() TokenCreationRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.TotalSupply = strings.TrimSpace(r.TotalSupply)
	r.MetadataSource.URI = strings.TrimSpace(r.MetadataSource.URI)
	return r
}

// Validate checks the request against the creation invariants.
// decimalsLimit caps Decimals; values above MaxCreateDecimals are ignored.
func (r TokenCreationRequest) Validate(decimalsLimit int) error {
	if decimalsLimit <= 0 || decimalsLimit > MaxCreateDecimals {
		decimalsLimit = MaxCreateDecimals
	}

	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(r.Name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d bytes", ErrValidation, MaxNameLength)
	}
	if r.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	if len(r.Symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds %d bytes", ErrValidation, MaxSymbolLength)
	}
	if r.Decimals < 0 || r.Decimals > decimalsLimit {
		return fmt.Errorf("%w: decimals must be between 0 and %d, got %d", ErrValidation, decimalsLimit, r.Decimals)
	}
	if !wholeNumber.MatchString(r.TotalSupply) {
		return fmt.Errorf("%w: total supply %q is not a whole number", ErrValidation, r.TotalSupply)
	}
	if !r.Plan.Valid() {
		return fmt.Errorf("%w: unknown plan %q", ErrValidation, r.Plan)
	}

	switch r.MetadataSource.Mode {
	case MetadataURL:
		if err := ValidateMetadataURI(r.MetadataSource.URI); err != nil {
			return err
		}
	case MetadataUpload:
	default:
		return fmt.Errorf("%w: unknown metadata mode %q", ErrValidation, r.MetadataSource.Mode)
	}

	return nil
}

// ValidateMetadataURI checks a user-supplied metadata URI: it must start with
// "http" and be an absolute http(s) URL with a host.
func ValidateMetadataURI(uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: metadata uri is required", ErrValidation)
	}
	if !strings.HasPrefix(uri, "http") {
		return fmt.Errorf("%w: invalid metadata uri %q", ErrValidation, uri)
	}
	if len(uri) > MaxURILength {
		return fmt.Errorf("%w: metadata uri exceeds %d bytes", ErrValidation, MaxURILength)
	}
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: invalid metadata uri %q", ErrValidation, uri)
	}
	return nil
}

// TokenCreationResult is returned after the creation transaction is confirmed.
// MintAuthorityRevoked and FreezeAuthorityRevoked always equal
// Plan.RevokesAuthorities().
type TokenCreationResult struct {
	Signature              string
	MintAddress            string
	Name                   string
	Symbol                 string
	MintAuthorityRevoked   bool
	FreezeAuthorityRevoked bool

	Plan        Plan
	Decimals    int
	TotalSupply string
	BaseSupply  string // TotalSupply in base units
	MetadataURI string
	FeeLamports uint64
}
