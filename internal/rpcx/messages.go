package rpcx

// Document is the encrypted document as it travels over the wire. Content
// is always ciphertext.
type Document struct {
	ID           string `json:"uuid"`
	Content      string `json:"content"`
	LastModified int64  `json:"last_modified"`
}

type GetDocumentRequest struct {
	ID string `json:"uuid"`
}

type PutDocumentRequest struct {
	ID      string `json:"uuid,omitempty"`
	Content string `json:"content"`
}

type PutDocumentResponse struct {
	LastModified int64 `json:"last_modified"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx HTTP answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusOK is the PingResponse status of a healthy server.
const StatusOK = "OK"

const (
	// MaxContentSize bounds the ciphertext of one document.
	MaxContentSize = 8 << 20

	// MaxMessageSize bounds one gRPC message: a document of MaxContentSize
	// plus its JSON framing. Both ends set it in place of gRPC's 4 MiB default.
	MaxMessageSize = MaxContentSize + 64<<10
)
