package services

// ValidationError reports bad caller input or an upstream answer that does not
// have the required shape (HTTP 400).
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return joinError(e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseError reports a model answer that could not be turned into usable data (HTTP 422).
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return joinError(e.Message, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ProviderError reports a failed call to the search, scrape or LLM provider (HTTP 502).
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return joinError(e.Message, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func joinError(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}
