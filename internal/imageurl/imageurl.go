// Package imageurl turns stored image paths into absolute, cache-busted URLs
// the mobile client can load directly.
package imageurl

import (
	"fmt"
	"strings"
	"time"
)

type Formatter struct {
	Host string
}

// Format prefixes the stored path with /files/ when missing, prepends the
// host and appends a cache-busting version parameter. Nil stays nil.
func (f Formatter) Format(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}

	p := *path
	if !strings.HasPrefix(p, "/files/") {
		p = "/files/" + strings.TrimPrefix(p, "/")
	}

	formatted := fmt.Sprintf("%s%s?v=%d", strings.TrimRight(f.Host, "/"), p, time.Now().Unix())
	return &formatted
}
