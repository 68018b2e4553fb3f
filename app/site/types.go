package site

type Profile struct {
	BaseURL        string    `yaml:"base_url"`
	LoginPath      string    `yaml:"login_path"`
	PostsPath      string    `yaml:"posts_path"` // {user} and {page} are substituted
	LoggedInMarker string    `yaml:"logged_in_marker"`
	Selectors      Selectors `yaml:"selectors"`
}

type Selectors struct {
	CSRFToken      string `yaml:"csrf_token"`
	PaginationLink string `yaml:"pagination_link"`
	RowsContainer  string `yaml:"rows_container"`
	Row            string `yaml:"row"`
	RowTimestamp   string `yaml:"row_timestamp"`
	TimestampAttr  string `yaml:"timestamp_attr"` // unix seconds
	RowLink        string `yaml:"row_link"`
	EditLink       string `yaml:"edit_link"`
	EditForm       string `yaml:"edit_form"`
	ContentField   string `yaml:"content_field"`
	HiddenInputs   string `yaml:"hidden_inputs"`
	SubmitButton   string `yaml:"submit_button"`
}
