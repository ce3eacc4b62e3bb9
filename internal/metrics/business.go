package metrics

// IncrementMemberCreated increments the member registration counter
func (m *Metrics) IncrementMemberCreated() {
	m.safeExecute("IncrementMemberCreated", func() {
		m.MemberCreatedTotal.Inc()
	})
}

// IncrementPostCreated increments the post creation counter
func (m *Metrics) IncrementPostCreated() {
	m.safeExecute("IncrementPostCreated", func() {
		m.PostCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments the comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementPostViews increments the counted-view counter
func (m *Metrics) IncrementPostViews() {
	m.safeExecute("IncrementPostViews", func() {
		m.PostViewsTotal.Inc()
	})
}

// SetMembersTotal sets the registered members gauge
func (m *Metrics) SetMembersTotal(count int64) {
	m.safeExecute("SetMembersTotal", func() {
		m.MembersTotal.Set(float64(count))
	})
}

// SetPostsTotal sets the posts gauge
func (m *Metrics) SetPostsTotal(count int64) {
	m.safeExecute("SetPostsTotal", func() {
		m.PostsTotal.Set(float64(count))
	})
}
