package model

// TodoItem is a single task record as served by the backend.
// The client treats it as a read-only snapshot.
type TodoItem struct {
	ID        string  `json:"id"`
	TodoText  string  `json:"todoText"`
	IsDone    bool    `json:"isDone"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

// HasImage reports whether an image is attached.
func (t TodoItem) HasImage() bool {
	return t.ImageURL != nil && *t.ImageURL != ""
}

// Image returns the attached image URL or "".
func (t TodoItem) Image() string {
	if t.ImageURL == nil {
		return ""
	}
	return *t.ImageURL
}

// OwnerItem is a display-only reference record.
type OwnerItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CourseID  string `json:"courseId"`
	Section   string `json:"section"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
