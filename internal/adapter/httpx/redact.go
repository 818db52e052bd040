package httpx

import "regexp"

var secretParams = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(token)=[^&"\s]+`),
	regexp.MustCompile(`(?i)(private_token)=[^&"\s]+`),
	regexp.MustCompile(`(?i)(access_token)=[^&"\s]+`),
	regexp.MustCompile(`(?i)(api_key)=[^&"\s]+`),
}

// RedactURLSecrets redacts token-style query parameters from URLs in
// error messages so credentials never reach log aggregators.
//
// Example:
//
//	input:  "https://gitlab.example.com/api/v4/user?private_token=glpat-abc"
//	output: "https://gitlab.example.com/api/v4/user?private_token=[REDACTED]"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	result := text
	for _, re := range secretParams {
		result = re.ReplaceAllString(result, "$1=[REDACTED]")
	}
	return result
}

// RedactToken reduces a credential to its last four characters for log
// output. Short values are fully masked.
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
