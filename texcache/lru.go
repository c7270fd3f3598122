package texcache

// lruList is an intrusive doubly-linked list of entries. The head is the
// most recently used entry, the tail the least recently used.
// The list is not thread-safe; callers must handle synchronization.
type lruList struct {
	head *Entry
	tail *Entry
	len  int
}

// pushFront inserts e as the most recently used entry.
func (l *lruList) pushFront(e *Entry) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.len++
}

// moveToFront marks e as the most recently used entry.
func (l *lruList) moveToFront(e *Entry) {
	if e == l.head {
		return
	}
	l.remove(e)
	l.pushFront(e)
}

// removeOldest unlinks and returns the least recently used entry, nil if
// the list is empty.
func (l *lruList) removeOldest() *Entry {
	e := l.tail
	if e != nil {
		l.remove(e)
	}
	return e
}

// remove unlinks e.
func (l *lruList) remove(e *Entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
	l.len--
}

func (l *lruList) clear() {
	l.head, l.tail, l.len = nil, nil, 0
}
