// Package jsontree 提供对动态JSON树的形状谓词搜索。
//
// 抓取到的页面内嵌JSON（例如Next.js的__NEXT_DATA__）的嵌套路径
// 会随上游改版而漂移，按固定路径取值非常脆弱。
// 这里改为在整棵树上做深度优先遍历，寻找第一个满足形状谓词的子树，
// 只要目标结构本身没变，外层怎么移动都能找到。
package jsontree

import (
	"reflect"
	"sort"
)

// Predicate 是作用在动态JSON节点上的形状谓词。
// 节点类型是json.Unmarshal到any时产生的类型：
// map[string]any、[]any、string、float64、bool、nil。
type Predicate func(node any) bool

// FindFirst 在root下深度优先搜索第一个满足pred的子树。
// 没有匹配时返回 (nil, false)。
// 遍历带有访问集合，即使树中存在共享或循环引用也能终止。
func FindFirst(root any, pred Predicate) (any, bool) {
	visited := make(map[uintptr]bool)
	stack := []any{root}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr == nil {
			continue
		}

		// map和slice是引用类型，用底层指针去重
		if ptr, ok := referencePointer(curr); ok {
			if visited[ptr] {
				continue
			}
			visited[ptr] = true
		}

		if pred(curr) {
			return curr, true
		}

		switch v := curr.(type) {
		case map[string]any:
			// 固定按键名排序，保证"第一个匹配"的结果可复现
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Sort(sort.Reverse(sort.StringSlice(keys)))
			for _, k := range keys {
				stack = append(stack, v[k])
			}
		case []any:
			for i := len(v) - 1; i >= 0; i-- {
				stack = append(stack, v[i])
			}
		}
	}
	return nil, false
}

func referencePointer(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		// 所有零长度slice共享同一个底层指针，不能参与去重
		if rv.IsNil() || rv.Len() == 0 {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

// --- 动态节点的宽松取值辅助函数 ---

// AsMap 将节点断言为对象，失败返回nil
func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// AsArray 将节点断言为数组，失败返回nil
func AsArray(v any) []any {
	a, _ := v.([]any)
	return a
}

// String 取对象中的字符串字段，不存在或类型不符时返回空串
func String(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Number 取对象中的数值字段，返回 (值, 是否存在)。
// JSON解码后的数值统一是float64。
func Number(m map[string]any, key string) (float64, bool) {
	f, ok := m[key].(float64)
	return f, ok
}

// Int 取对象中的数值字段并截断为整数指针，缺失或非数值时返回nil
func Int(m map[string]any, key string) *int {
	if f, ok := m[key].(float64); ok {
		n := int(f)
		return &n
	}
	return nil
}
