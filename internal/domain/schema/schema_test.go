package schema_test

import (
	"testing"

	"github.com/okian/compdash/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExpectedColumns(t *testing.T) {
	Convey("Given the expected upload columns", t, func() {
		Convey("Then the provider schema should start with the name and end with the model", func() {
			cols := schema.Provider()
			So(len(cols), ShouldEqual, 15)
			So(cols[0], ShouldEqual, "provider_name")
			So(cols[len(cols)-1], ShouldEqual, "model_type")
		})

		Convey("Then the market schema should carry four TCC and four wRVU percentiles", func() {
			cols := schema.Market()
			So(len(cols), ShouldEqual, 11)
			So(cols[:3], ShouldResemble, []string{"specialty", "provider_type", "region"})
			So(cols, ShouldContain, "tcc_p90")
			So(cols, ShouldContain, "wrvu_p25")
		})

		Convey("Then column names should be unique", func() {
			for _, cols := range [][]string{schema.Provider(), schema.Market()} {
				seen := map[string]bool{}
				for _, c := range cols {
					So(seen[c], ShouldBeFalse)
					seen[c] = true
				}
			}
		})

		Convey("Then callers should get copies", func() {
			cols := schema.Provider()
			cols[0] = "changed"
			So(schema.Provider()[0], ShouldEqual, "provider_name")
		})
	})
}
