package utils

import (
	"strconv"
	"strings"
)

func BuildProfilesListCacheKey(limit int, cursor string, status, skill *string) string {
	s := ""
	if status != nil {
		s = strings.ToLower(strings.TrimSpace(*status))
	}
	sk := ""
	if skill != nil {
		sk = strings.ToLower(strings.TrimSpace(*skill))
	}

	return "profiles:list:v1:limit=" + strconv.Itoa(limit) +
		":cursor=" + cursor +
		":status=" + s +
		":skill=" + sk
}
