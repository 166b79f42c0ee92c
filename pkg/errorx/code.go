package errorx

type Code int

var Unknown = Error{Code: Internal, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	MethodNotAllowed Code = 100010

	// Upstream service codes
	GenerateFailed Code = 200001
	MintFailed     Code = 200002
	BridgeFailed   Code = 200003
)
