package handlers

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse            = Response{}
	DBError1Response      = Response{"DB Error 1"}
	NotFoundResponse      = Response{"no student with that id"}
	AlreadyMarkedResponse = Response{"attendance already marked for this session"}
	ModelMissingResponse  = Response{"train the model first"}
	RunActiveResponse     = Response{"a capture run is already in progress"}
	NoRunResponse         = Response{"no capture run in progress"}
)
