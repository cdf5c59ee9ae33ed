package v1

type kvPair[T any] struct {
	key []byte
	val T
}

// revisionList records the previous value of every key written since the last commit.
// A snapshot is an index into the list.
type revisionList[T any] struct {
	revs []*kvPair[T]
}

func newRevisionList[T any]() *revisionList[T] {
	return &revisionList[T]{
		revs: make([]*kvPair[T], 0),
	}
}

func (revlist *revisionList[T]) set(key []byte, val T) {
	k := make([]byte, len(key))
	copy(k, key)
	revlist.revs = append(revlist.revs, &kvPair[T]{
		key: k,
		val: val,
	})
}

func (revlist *revisionList[T]) snapshot() int {
	return len(revlist.revs)
}

// since returns the revisions recorded after snap, oldest first.
func (revlist *revisionList[T]) since(snap int) []*kvPair[T] {
	if snap < 0 || snap > len(revlist.revs) {
		return nil
	}
	return revlist.revs[snap:]
}

func (revlist *revisionList[T]) revert(snap int) {
	revlist.revs = revlist.revs[:snap]
}

func (revlist *revisionList[T]) reset() {
	revlist.revs = revlist.revs[:0]
}
