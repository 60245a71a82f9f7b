package reddit

// ExtractNegativePosts selects the posts worth sending to the model. There is
// no local sentiment step yet: every post the keyword query returned is kept,
// in order.
func ExtractNegativePosts(posts []Post) []Post {
	return posts
}
