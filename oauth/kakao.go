package oauth

import (
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	KakaoName       = "kakao"
	kakaoAuthURL    = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL   = "https://kauth.kakao.com/oauth/token"
	kakaoProfileURL = "https://kapi.kakao.com/v2/user/me"
)

func NewKakao(cfg Config, client *http.Client) Provider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = kakaoAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = kakaoTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = kakaoProfileURL
	}
	return newProvider(KakaoName, cfg, client, normalizeKakao)
}

func normalizeKakao(body []byte) Profile {
	r := gjson.ParseBytes(body)
	nickname := firstString(r, "kakao_account.profile.nickname", "properties.nickname")
	return Profile{
		ExternalID:  r.Get("id").String(),
		Email:       r.Get("kakao_account.email").String(),
		DisplayName: nickname,
		AvatarURL:   firstString(r, "kakao_account.profile.profile_image_url", "properties.profile_image"),
	}
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p).String(); v != "" {
			return v
		}
	}
	return ""
}
