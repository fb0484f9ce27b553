package types

// NetworkResponse is one captured wire response, paired with the URL of
// the request that produced it so pagination offsets stay recoverable.
type NetworkResponse struct {
	RequestURL string
	MimeType   string
	Body       []byte
}
