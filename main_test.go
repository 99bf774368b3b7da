package main

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// costLine strips the timing suffix from run's output, leaving only the
// deterministic part (core count, dimensions, cost) for comparison
// across repeated runs.
func costLine(output string) string {
	i := strings.Index(output, "Cost:")
	j := strings.Index(output, "\tPerf:")
	if i == -1 || j == -1 {
		return output
	}
	return output[:j]
}

func TestRun(t *testing.T) {
	Convey("Given the astar command", t, func() {
		Convey("When the positional arguments are malformed", func() {
			var stdout, stderr bytes.Buffer
			code := run([]string{"1", "5"}, &stdout, &stderr)

			So(code, ShouldEqual, 1)
			So(stderr.String(), ShouldNotBeEmpty)
		})

		Convey("When no arguments are given", func() {
			var stdout, stderr bytes.Buffer
			code := run(nil, &stdout, &stderr)

			So(code, ShouldEqual, 1)
			So(stderr.String(), ShouldContainSubstring, "Usage")
		})

		Convey("When the grid type is unknown", func() {
			var stdout, stderr bytes.Buffer
			code := run([]string{"1", "9", "9", "lava", "1"}, &stdout, &stderr)

			So(code, ShouldEqual, 1)
		})

		Convey("When run sequentially on a small empty grid", func() {
			var stdout, stderr bytes.Buffer
			code := run([]string{"1", "9", "9", "empty", "1"}, &stdout, &stderr)

			So(code, ShouldEqual, 0)
			So(stdout.String(), ShouldContainSubstring, "Bingo! Path found")
			So(stdout.String(), ShouldContainSubstring, "Nb_cores: 1")
		})

		Convey("When run distributed across several workers on the same grid", func() {
			var stdout, stderr bytes.Buffer
			code := run([]string{"-workers", "4", "1", "9", "9", "empty", "1"}, &stdout, &stderr)

			So(code, ShouldEqual, 0)
			So(stdout.String(), ShouldContainSubstring, "Bingo! Path found")
			So(stdout.String(), ShouldContainSubstring, "Nb_cores: 4")
		})

		Convey("When run with the same explicit seed twice", func() {
			var stdout1, stderr1, stdout2, stderr2 bytes.Buffer
			code1 := run([]string{"7", "11", "11", "walls", "1"}, &stdout1, &stderr1)
			code2 := run([]string{"7", "11", "11", "walls", "1"}, &stdout2, &stderr2)

			Convey("The same seed reproduces the same generated grid and outcome", func() {
				So(code1, ShouldEqual, code2)
				So(costLine(stdout1.String()), ShouldEqual, costLine(stdout2.String()))
			})
		})
	})
}
