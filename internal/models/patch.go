package models

// Apply merges the patch onto m. Present fields override the stored value
// wholesale; slices replace the existing slice and are never deep-merged.
func (p MemoryPatch) Apply(m *Memory) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.MediaURL != nil {
		m.MediaURL = *p.MediaURL
	}
	if p.AuthorID != nil {
		m.AuthorID = *p.AuthorID
	}
	if p.AuthorName != nil {
		m.AuthorName = *p.AuthorName
	}
	if p.Likes != nil {
		m.Likes = *p.Likes
	}
	if p.Comments != nil {
		m.Comments = *p.Comments
	}
}

// Empty reports whether the patch changes nothing.
func (p MemoryPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Date == nil && p.Tags == nil &&
		p.Type == nil && p.MediaURL == nil && p.AuthorID == nil &&
		p.AuthorName == nil && p.Likes == nil && p.Comments == nil
}

// Apply merges the patch onto f with the same override semantics.
func (p FamilyMemberPatch) Apply(f *FamilyMember) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Relationship != nil {
		f.Relationship = *p.Relationship
	}
	if p.Avatar != nil {
		f.Avatar = *p.Avatar
	}
}
