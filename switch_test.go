package fiber

import "testing"

func TestMailboxRoundTrip(t *testing.T) {
	var box mailbox
	box.put(resumeFiber{})
	if _, ok := box.take().(resumeFiber); !ok {
		t.Error("Expected resumeFiber back from mailbox")
	}

	box.put(cleanupFiber{})
	if _, ok := box.take().(cleanupFiber); !ok {
		t.Error("Expected cleanupFiber back from mailbox")
	}
}

func TestMailboxRejectsDoublePut(t *testing.T) {
	var box mailbox
	box.put(resumeFiber{})

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on second put")
		}
	}()
	box.put(cleanupFiber{})
}

func TestMailboxRejectsEmptyTake(t *testing.T) {
	var box mailbox

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on empty take")
		}
	}()
	box.take()
}

func TestSchedulerRecordsNestInOrder(t *testing.T) {
	s := &scheduler{}
	outer := &fiberRecord{}
	inner := &fiberRecord{}

	s.push(outer)
	s.push(inner)
	if s.current() != inner {
		t.Error("Expected innermost record to be current")
	}
	if s.pop() != inner {
		t.Error("Expected pop to return innermost record")
	}
	if s.current() != outer {
		t.Error("Expected outer record after pop")
	}
	if s.pop() != outer {
		t.Error("Expected pop to return outer record")
	}
}

func TestSchedulerCurrentOutsideFiberPanics(t *testing.T) {
	s := &scheduler{}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on empty record stack")
		}
	}()
	s.current()
}
