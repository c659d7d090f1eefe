package controller

import "net/http"

const apiPrefix = "/api/v1.0"

// homeRoutes is what the landing page advertises, in display order.
var homeRoutes = []string{
	apiPrefix + "/precipitation",
	apiPrefix + "/stations",
	apiPrefix + "/tobs",
	apiPrefix + "/<start> and " + apiPrefix + "/<start>/<end>",
}

// summaryBounds returns the raw date segments of a summary request. end is
// empty for the single-date form. Values are not validated.
func summaryBounds(r *http.Request) (start, end string) {
	return r.PathValue("start"), r.PathValue("end")
}
