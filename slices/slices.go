package slices

func Map[T, V any](s []T, transformElem func(T) V) []V {
	m := make([]V, len(s))
	for i, elem := range s {
		m[i] = transformElem(elem)
	}
	return m
}

// FlatMap concatenates the slices produced for every element, in order.
func FlatMap[T, V any](s []T, expand func(T) []V) []V {
	var m []V
	for _, elem := range s {
		m = append(m, expand(elem)...)
	}
	return m
}

func Reduce[A, T any](s []T, initial A, f func(acc A, value T) A) A {
	for _, val := range s {
		initial = f(initial, val)
	}
	return initial
}

func SumBy[T any](s []T, value func(T) int) int {
	return Reduce(s, 0, func(acc int, elem T) int {
		return acc + value(elem)
	})
}
