package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInitDataInvalid = errors.New("telegram init data invalid")
	ErrInitDataExpired = errors.New("telegram init data expired")
	ErrHashMismatch    = errors.New("telegram init data hash mismatch")
)

// WebAppUser Mini-App 用户信息（initData.user）
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
	IsPremium    bool   `json:"is_premium"`
}

// InitData 校验通过的 initData
type InitData struct {
	User     WebAppUser
	AuthDate time.Time
	QueryID  string
	StartApp string
}

// ValidateInitData 校验 Mini-App initData 签名与时效，maxAge <= 0 时不校验时效
func ValidateInitData(raw, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	if strings.TrimSpace(botToken) == "" {
		return nil, fmt.Errorf("%w: bot token is empty", ErrInitDataInvalid)
	}
	values, err := url.ParseQuery(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataInvalid, err)
	}
	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: hash is missing", ErrInitDataInvalid)
	}
	expected := SignInitData(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(hash))) {
		return nil, ErrHashMismatch
	}

	authUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil || authUnix <= 0 {
		return nil, fmt.Errorf("%w: auth_date is invalid", ErrInitDataInvalid)
	}
	authDate := time.Unix(authUnix, 0)
	if maxAge > 0 && now.Sub(authDate) > maxAge {
		return nil, ErrInitDataExpired
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: user is invalid", ErrInitDataInvalid)
	}
	return &InitData{
		User:     user,
		AuthDate: authDate,
		QueryID:  values.Get("query_id"),
		StartApp: values.Get("start_param"),
	}, nil
}

// SignInitData 计算 initData 签名：
// secret = HMAC_SHA256("WebAppData", botToken)，hash = hex(HMAC_SHA256(secret, data_check_string))
// data_check_string 为除 hash 外的全部字段按键排序后以 "\n" 连接的 key=value
func SignInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
