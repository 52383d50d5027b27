package thirdparty

import (
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
)

// HTTPRequestTimeout is the default timeout for all HTTP requests to vendor APIs.
const HTTPRequestTimeout = 60 * time.Second

// recordStatus keeps the response status code, whatever the later validators decide.
func recordStatus(status *int) requests.ResponseHandler {
	return func(res *http.Response) error {
		*status = res.StatusCode
		return nil
	}
}
