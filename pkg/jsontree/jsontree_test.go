package jsontree

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("测试数据无法解析: %v", err)
	}
	return v
}

func TestFindFirst(t *testing.T) {
	Convey("Given a deeply nested JSON tree", t, func() {
		tree := decode(t, `{
			"props": {
				"pageProps": {
					"dehydratedState": {
						"queries": [
							{"state": {"data": {"acSubmissionNum": [
								{"difficulty": "All", "count": 42}
							]}}}
						]
					}
				}
			}
		}`)

		pred := func(v any) bool {
			m := AsMap(v)
			if m == nil {
				return false
			}
			arr := AsArray(m["acSubmissionNum"])
			return len(arr) > 0
		}

		Convey("When searching by shape predicate", func() {
			node, found := FindFirst(tree, pred)

			Convey("Then the matching subtree is located regardless of its path", func() {
				So(found, ShouldBeTrue)
				m := AsMap(node)
				So(m, ShouldNotBeNil)
				So(len(AsArray(m["acSubmissionNum"])), ShouldEqual, 1)
			})
		})

		Convey("When the same structure moves to a different location", func() {
			moved := decode(t, `{"x": [{"y": {"acSubmissionNum": [{"difficulty": "All", "count": 7}]}}]}`)
			node, found := FindFirst(moved, pred)

			Convey("Then it is still found", func() {
				So(found, ShouldBeTrue)
				So(AsMap(node), ShouldNotBeNil)
			})
		})

		Convey("When no subtree matches", func() {
			_, found := FindFirst(tree, func(v any) bool {
				m := AsMap(v)
				return m != nil && m["doesNotExist"] != nil
			})

			Convey("Then it reports not found without error", func() {
				So(found, ShouldBeFalse)
			})
		})
	})

	Convey("Given a tree containing several empty arrays", t, func() {
		tree := decode(t, `{"a": [], "b": {"inner": []}, "c": {"deeper": {"last": []}}}`)

		Convey("When walking the whole tree", func() {
			emptyVisits := 0
			_, found := FindFirst(tree, func(v any) bool {
				if arr, ok := v.([]any); ok && len(arr) == 0 {
					emptyVisits++
				}
				return false
			})

			Convey("Then every empty array reaches the predicate", func() {
				// 零长度slice共享底层指针，不能被访问集合误判为同一节点
				So(found, ShouldBeFalse)
				So(emptyVisits, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a tree containing a cycle", t, func() {
		// json.Unmarshal不会产生环，但搜索本身必须能在环上终止
		m := map[string]any{"name": "root"}
		m["self"] = m

		Convey("When searching for an absent shape", func() {
			_, found := FindFirst(m, func(v any) bool {
				inner := AsMap(v)
				return inner != nil && String(inner, "name") == "missing"
			})

			Convey("Then the walk terminates", func() {
				So(found, ShouldBeFalse)
			})
		})
	})
}

func TestAccessors(t *testing.T) {
	Convey("Given a dynamic JSON object", t, func() {
		m := AsMap(decode(t, `{"name": "tourist", "rating": 3821.0, "tags": ["a"]}`))

		Convey("String returns the field or empty", func() {
			So(String(m, "name"), ShouldEqual, "tourist")
			So(String(m, "rating"), ShouldEqual, "")
			So(String(m, "missing"), ShouldEqual, "")
		})

		Convey("Number reports presence", func() {
			n, ok := Number(m, "rating")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 3821.0)
			_, ok = Number(m, "name")
			So(ok, ShouldBeFalse)
		})

		Convey("Int truncates or returns nil", func() {
			So(*Int(m, "rating"), ShouldEqual, 3821)
			So(Int(m, "name"), ShouldBeNil)
		})

		Convey("AsMap and AsArray tolerate wrong types", func() {
			So(AsMap("not a map"), ShouldBeNil)
			So(AsArray(m["name"]), ShouldBeNil)
			So(len(AsArray(m["tags"])), ShouldEqual, 1)
		})
	})
}
