package dialogue

// Role identifies who authored a rendered message
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Surface is the message-rendering collaborator. Render appends text to
// the visible conversation log; ordering is call order.
type Surface interface {
	Render(text string, role Role)
}

// ResultStatus tags the outcome of a remote ledger call
type ResultStatus int

const (
	// StatusOK means the service returned a success payload
	StatusOK ResultStatus = iota
	// StatusServiceError means the service answered with an error body
	StatusServiceError
	// StatusTransportError means the call never produced a service
	// answer (timeout, connection refused, undecodable response)
	StatusTransportError
)

// FinalizeResult is the outcome of submitting a finalized order
type FinalizeResult struct {
	Status  ResultStatus
	OrderID int    // set when Status is StatusOK
	Message string // service-reported error text
	Err     error  // transport failure
}

// TrackResult is the outcome of a tracking-number lookup
type TrackResult struct {
	Status    ResultStatus
	Items     map[string]int // set when Status is StatusOK
	TotalCost float64
	Message   string
	Err       error
}

// Gateway is the remote order ledger. Both calls are asynchronous: they
// return immediately and deliver their result to the callback from
// another goroutine.
type Gateway interface {
	Finalize(items map[string]int, totalCost float64, fn func(FinalizeResult))
	Track(trackingNumber string, fn func(TrackResult))
}

// Store is the key-value persistence gateway used to seed the next
// order number at session start and record progress after finalize.
type Store interface {
	Load(key string) (string, bool)
	Save(key, value string) error
}
