package dto

// IntakeItem is one incoming evidence object. Either Data holds the
// bytes of an uploaded file, or Ref carries a pre-stored reference to
// attach as-is. UploadIndex is the client's ordering and is trusted
// verbatim.
type IntakeItem struct {
	Filename    string
	Data        []byte
	Ref         string
	UploadIndex int
}

// IntakeRequest is a whole evidence batch destined for one new order.
type IntakeRequest struct {
	UserID string
	OpenID string
	Items  []IntakeItem
}

// Outcome states for a single intake item.
const (
	ItemStored   = "stored"
	ItemRejected = "rejected"
)

// ItemOutcome reports what happened to one item. Location is "remote",
// "local" or "reference" for stored items.
type ItemOutcome struct {
	UploadIndex      int    `json:"upload_index"`
	OriginalFilename string `json:"original_filename,omitempty"`
	Status           string `json:"status"`
	Location         string `json:"location,omitempty"`
	Reference        string `json:"reference,omitempty"`
	URL              string `json:"url,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// IntakeResult is the batch result after the transactional commit.
type IntakeResult struct {
	OrderID     string        `json:"order_id"`
	TotalStored int           `json:"total_stored"`
	Outcomes    []ItemOutcome `json:"items"`
}

type LicenseUploadRequest struct {
	UserID   string
	Filename string
	Data     []byte
}

type LicenseUploadResponse struct {
	RegistrationID string `json:"registration_id"`
	Path           string `json:"path"`
	URL            string `json:"url"`
}
