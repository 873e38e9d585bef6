// Package report decodes the marker-delimited self-test report the
// device returns from its diagnostics command. The format carries no
// length fields; sections are recognized by marker bytes and unknown
// bytes are surfaced as unparsed spans rather than silently skipped.
package report

// Report kinds (first byte of the response buffer).
const KindDebugTests byte = 0x2C

// Section and record markers.
const (
	markDerivation    byte = 0xBD
	markDerivationD4  byte = 0xD4
	markDerivationEnd byte = 0xDD
	markKeyMatrix     byte = 0xF6
	markKeyMatrixEnd  byte = 0xAA
	markAddrMatrix    byte = 0xAD
	markAddrMatrixEnd byte = 0xAF
)

// Record markers for the key-derivation and address-generation matrices.
const (
	MarkKeyOne      byte = 0xA1
	MarkKeyTwo      byte = 0xA2
	MarkKeyOnes     byte = 0xA3
	MarkKeyFF       byte = 0xA4
	MarkAddrOne     byte = 0xB1
	MarkAddrTwo     byte = 0xB2
	MarkAddrOnes    byte = 0xB3
	MarkAddrFF      byte = 0xB4
	excerptLen           = 8
)

// Outcome is the three-way result of one address-generation test.
type Outcome int

const (
	OutcomePass Outcome = iota
	OutcomeFail
	OutcomeMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	default:
		return "mismatch"
	}
}

// Report is one decoded self-test response. Decode never fails: an
// unrecognized kind sets Unknown and leaves the tail unparsed, and
// absent sections stay nil.
type Report struct {
	Kind    byte
	Unknown bool

	Derivation *DerivationDebug
	KeyMatrix  *KeyMatrix
	Addresses  *AddressMatrix

	// Unparsed collects byte spans the decoder scanned past without
	// recognizing, for human inspection.
	Unparsed [][]byte
}

// DerivationDebug is the BIP32 derivation probe: raw, clamped, and
// public-key excerpts are the first eight bytes of each value.
type DerivationDebug struct {
	Derived  bool
	RawKey   []byte
	Clamped  []byte
	PublicOK bool
	Public   []byte
}

// KeyResult is one record of the key-derivation matrix. Match is only
// meaningful when Derived is true.
type KeyResult struct {
	Marker  byte
	Derived bool
	Match   bool
}

// KeyMatrix is the fixed-key public-key verification section.
type KeyMatrix struct {
	Results    []KeyResult
	Terminated bool
}

// AllPassed reports whether every record derived and matched.
func (m *KeyMatrix) AllPassed() bool {
	if m == nil || len(m.Results) == 0 {
		return false
	}
	for _, r := range m.Results {
		if !r.Derived || !r.Match {
			return false
		}
	}
	return true
}

// NetResult is one network's outcome within an address record. The
// length bytes and excerpt are present only on a mismatch, and only
// when the buffer actually carried them.
type NetResult struct {
	Outcome     Outcome
	ActualLen   byte
	ExpectedLen byte
	Excerpt     []byte
}

// AddressResult is one record of the address-generation matrix.
// Testnet is nil when the record ended before a testnet byte.
type AddressResult struct {
	Marker  byte
	Mainnet NetResult
	Testnet *NetResult
}

// AddressMatrix is the address-generation section.
type AddressMatrix struct {
	Results    []AddressResult
	Terminated bool
}
