package authclient

import "github.com/kinkando/blog-auth-service/model"

// State is the client's view of the session. The access token lives only
// here; the refresh token lives only in the cookie jar.
type State struct {
	AccessToken string
	User        *model.UserProfile
}

func (s State) IsAuthenticated() bool {
	return s.AccessToken != "" && s.User != nil
}
