package switcher

import "strings"

// isPermanentRefreshError distinguishes tokens the provider has rejected for
// good (revoked, expired grant) from transient transport failures. Both
// degrade to a manual sign-in; the distinction only changes what gets logged.
func isPermanentRefreshError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	permanentMarkers := []string{
		"invalid_grant",
		"invalid_client",
		"unauthorized_client",
		"token has been expired or revoked",
		"revoked",
	}
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
