package enums

// MediaKind partitions uploads by what they attach to.
type MediaKind string

const (
	// MediaKindReceipt is a proof-of-payment image for an online payment line.
	MediaKindReceipt MediaKind = "receipt"
	// MediaKindListing is a merchandise or variant picture.
	MediaKindListing MediaKind = "listing"
)

// IsValid reports whether the kind is one we accept.
func (k MediaKind) IsValid() bool {
	switch k {
	case MediaKindReceipt, MediaKindListing:
		return true
	default:
		return false
	}
}
