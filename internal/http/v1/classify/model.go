package classify

// CodeInput selects the status code to classify.
type CodeInput struct {
	Code int `path:"code" minimum:"0" maximum:"65535" doc:"Numeric status code" example:"404"`
}

// Classification is the payload returned by the classify route.
type Classification struct {
	Code  uint16 `json:"code"  doc:"Classified status code" example:"404"`
	Label string `json:"label" doc:"Canonical label"        example:"not found"`
	Kind  string `json:"kind"  doc:"Category family"        example:"failed" enum:"ok,failed,error"`
}
