package model

type OAuth2VerifyRequest struct {
	Type    string `json:"type"`
	IDToken string `json:"id_token"`
}

type OAuth2VerifyResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
