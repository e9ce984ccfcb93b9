package entities

// ReleaseOptions holds the operator's choices for one run.
type ReleaseOptions struct {
	WorkingDir         string
	Publish            bool
	Prod               bool
	BuildCmd           string
	RefreshServer      bool
	RefreshToken       bool
	RefreshOwner       bool
	RefreshPublishType bool
	SSHUser            string
	SSHIP              string
	SSHPath            string
}

// WantsTemplateUpload reports whether every SSH upload option is set.
func (o ReleaseOptions) WantsTemplateUpload() bool {
	return o.SSHUser != "" && o.SSHIP != "" && o.SSHPath != ""
}
