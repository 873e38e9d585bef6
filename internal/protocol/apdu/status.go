package apdu

// StatusWord is the two-byte code trailing every device response.
type StatusWord uint16

// Status words returned by the device application.
const (
	SWOK              StatusWord = 0x9000
	SWDeny            StatusWord = 0x6985
	SWWrongP1P2       StatusWord = 0x6A86
	SWWrongLength     StatusWord = 0x6700
	SWInsNotSupported StatusWord = 0x6D00
	SWClaNotSupported StatusWord = 0x6E00
	SWTxDisplayFail   StatusWord = 0xB001
	SWAddrDisplayFail StatusWord = 0xB002
	SWTxWrongLength   StatusWord = 0xB004
	SWTxParsingFail   StatusWord = 0xB005
	SWTxHashFail      StatusWord = 0xB006
	SWTxSignFail      StatusWord = 0xB008
	SWKeyDeriveFail   StatusWord = 0xB009
	SWVersionParsing  StatusWord = 0xB00A
	SWMemoRequired    StatusWord = 0xB00C
	SWMemoInvalid     StatusWord = 0xB00D
	SWBadCommitment   StatusWord = 0xC000
	SWBlindersNeeded  StatusWord = 0xC001
	SWBadRistretto    StatusWord = 0xC002
	SWCryptoError     StatusWord = 0x6F00
	SWAddressError    StatusWord = 0x6F01
	SWParamError      StatusWord = 0x6F02
)

// Describe maps a status word to a human-readable cause. Advisory only:
// control flow keys off SWOK, never off the description.
func (sw StatusWord) Describe() string {
	switch sw {
	case SWOK:
		return "ok"
	case SWDeny:
		return "user rejected the request"
	case SWWrongP1P2:
		return "invalid P1/P2 parameters"
	case SWWrongLength:
		return "wrong command length"
	case SWInsNotSupported:
		return "instruction not supported"
	case SWClaNotSupported:
		return "instruction class not supported"
	case SWTxDisplayFail:
		return "transaction display failed"
	case SWAddrDisplayFail:
		return "address display failed"
	case SWTxWrongLength:
		return "transaction wrong length"
	case SWTxParsingFail:
		return "transaction parsing failed"
	case SWTxHashFail:
		return "transaction hashing failed"
	case SWTxSignFail:
		return "transaction signing failed"
	case SWKeyDeriveFail:
		return "key derivation failed"
	case SWVersionParsing:
		return "version parsing failed"
	case SWMemoRequired:
		return "memo required before signing"
	case SWMemoInvalid:
		return "memo invalid"
	case SWBadCommitment:
		return "commitment verification failed"
	case SWBlindersNeeded:
		return "blinders required"
	case SWBadRistretto:
		return "invalid compressed ristretto point"
	case SWCryptoError:
		return "crypto error"
	case SWAddressError:
		return "address error"
	case SWParamError:
		return "parameter error"
	default:
		return "unknown status"
	}
}
