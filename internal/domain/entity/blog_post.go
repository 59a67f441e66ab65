package entity

import "time"

// BlogPost is a CMS article. Published is a 0/1 flag; unpublished posts are
// drafts visible only through admin reads.
type BlogPost struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Content      string    `json:"content" bson:"content"` // rich HTML
	Excerpt      string    `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Category     string    `json:"category,omitempty" bson:"category,omitempty"`
	Author       string    `json:"author" bson:"author"`
	AuthorAvatar string    `json:"authorAvatar,omitempty" bson:"authorAvatar,omitempty"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty"`
	ReadTime     string    `json:"readTime,omitempty" bson:"readTime,omitempty"`
	Published    int       `json:"published" bson:"published"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BlogPostUpdate is a partial update; nil fields are left unchanged.
type BlogPostUpdate struct {
	Title        *string `json:"title,omitempty"`
	Content      *string `json:"content,omitempty"`
	Excerpt      *string `json:"excerpt,omitempty"`
	Category     *string `json:"category,omitempty"`
	Author       *string `json:"author,omitempty"`
	AuthorAvatar *string `json:"authorAvatar,omitempty"`
	Image        *string `json:"image,omitempty"`
	ReadTime     *string `json:"readTime,omitempty"`
	Published    *int    `json:"published,omitempty"`
}

// Apply copies the set fields onto p.
func (u BlogPostUpdate) Apply(p *BlogPost) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Excerpt != nil {
		p.Excerpt = *u.Excerpt
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Author != nil {
		p.Author = *u.Author
	}
	if u.AuthorAvatar != nil {
		p.AuthorAvatar = *u.AuthorAvatar
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.ReadTime != nil {
		p.ReadTime = *u.ReadTime
	}
	if u.Published != nil {
		p.Published = *u.Published
	}
}
