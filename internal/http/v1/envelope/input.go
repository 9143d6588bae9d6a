package envelope

// CodeInput selects the status code carried by the emitted envelope.
type CodeInput struct {
	Code int `path:"code" minimum:"0" maximum:"65535" doc:"Numeric status code" example:"404"`
}
