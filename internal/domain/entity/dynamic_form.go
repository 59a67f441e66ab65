package entity

import "time"

// FormField describes one input of a dynamic form. Options applies to
// select-style fields only.
type FormField struct {
	ID          string   `json:"id" bson:"id"`
	Type        string   `json:"type" bson:"type"` // text, email, textarea, select, ...
	Label       string   `json:"label" bson:"label"`
	Placeholder string   `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Required    bool     `json:"required" bson:"required"`
	Options     []string `json:"options,omitempty" bson:"options,omitempty"`
}

// DynamicForm is an admin-authored form definition rendered generically by
// the client. Active is a 0/1 flag.
type DynamicForm struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Type        string      `json:"type" bson:"type"` // course, hiring, event, ...
	Fields      []FormField `json:"fields" bson:"fields"`
	Active      int         `json:"active" bson:"active"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// DynamicFormUpdate is a partial update; nil fields are left unchanged.
type DynamicFormUpdate struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Type        *string      `json:"type,omitempty"`
	Fields      *[]FormField `json:"fields,omitempty"`
	Active      *int         `json:"active,omitempty"`
}

// Apply copies the set fields onto f.
func (u DynamicFormUpdate) Apply(f *DynamicForm) {
	if u.Title != nil {
		f.Title = *u.Title
	}
	if u.Description != nil {
		f.Description = *u.Description
	}
	if u.Type != nil {
		f.Type = *u.Type
	}
	if u.Fields != nil {
		f.Fields = *u.Fields
	}
	if u.Active != nil {
		f.Active = *u.Active
	}
}

// FormSubmission is one answer set for a DynamicForm. FormID is a weak
// reference: submissions survive deletion of their form, and the payload is
// stored as-is without validating it against the form's field schema.
type FormSubmission struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	FormID         string         `json:"formId" bson:"formId"`
	SubmissionData map[string]any `json:"submissionData" bson:"submissionData"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
}
