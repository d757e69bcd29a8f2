package assistant

import "errors"

var (
	// ErrHandlerNotFound means the backend requested a tool no handler is
	// registered for.
	ErrHandlerNotFound = errors.New("tool handler not found")
	// ErrInvalidArguments means a handler could not parse the argument JSON
	// the backend supplied. Handlers wrap this sentinel themselves.
	ErrInvalidArguments = errors.New("invalid tool arguments")
	// ErrExecutionFailed wraps a handler's synchronous failure.
	ErrExecutionFailed = errors.New("tool execution failed")
	// ErrEmptyResponse means the backend produced neither text nor a tool call.
	ErrEmptyResponse = errors.New("empty assistant response")
	// ErrChainDepthExceeded means the backend kept chaining tool calls past
	// the configured limit without producing a terminal answer.
	ErrChainDepthExceeded = errors.New("tool call chain depth exceeded")
)
