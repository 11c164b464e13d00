package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gce/core/candidate"
)

var subjectsParam = "subjects"

// bindID reads the candidate id path parameter.
func bindID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// bindSubjects reads a comma separated, or repeated, subjects query parameter.
func bindSubjects(ctx echo.Context) []string {
	var subjects []string
	for _, val := range ctx.QueryParams()[subjectsParam] {
		for _, name := range strings.Split(val, ",") {
			if name = strings.TrimSpace(name); name != "" {
				subjects = append(subjects, name)
			}
		}
	}
	return subjects
}

func bindFilter(ctx echo.Context) candidate.QueryFilter {
	filter := candidate.QueryFilter{
		Search: ctx.QueryParam("search"),
		Status: ctx.QueryParam("status"),
	}
	filter.Clean()
	return filter
}
