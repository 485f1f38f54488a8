// Package deps defines dependency records and the concurrent fetch
// coordinator that produces them.
//
// # Records
//
// A [Record] is the resolved view of one artifact: its coordinates, the
// release it was resolved at and the dependencies declared by that
// release. A record with an empty Dependencies slice is a successfully
// resolved artifact that declares nothing; an artifact that could not be
// resolved has no record at all.
//
// # Coordinator
//
// [Collect] fans a list of descriptor locations out to a fixed pool of
// workers. Every location is an independent unit of work: a failing unit
// is logged and reported in [Result.Failures] but never cancels its
// siblings. Collect returns once every unit has finished.
//
//	res, err := deps.Collect(ctx, locations, resolver, deps.CollectOptions{Workers: 8})
//	fmt.Println(res.Attempted, res.Succeeded, len(res.Failures))
package deps
