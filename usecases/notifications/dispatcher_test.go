package notifications

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDonationDispatcher_Publish(t *testing.T) {
	t.Run("DeliversEveryEvent", func(t *testing.T) {
		notifier := &MockDonationNotifier{}
		dispatcher := NewDonationDispatcher(notifier, 2, nil)

		first := testDonationEvent()
		second := testDonationEvent()
		second.TransactionID = "txn-2"

		notifier.On("NotifyDonation", mock.Anything, first).Return(nil).Once()
		notifier.On("NotifyDonation", mock.Anything, second).Return(errors.New("send failed")).Once()

		dispatcher.Publish(first)
		dispatcher.Publish(second)
		dispatcher.Stop()

		notifier.AssertExpectations(t)
	})

	t.Run("WrapsTasks", func(t *testing.T) {
		notifier := &MockDonationNotifier{}
		var wrapped atomic.Int32
		var taskName atomic.Value
		wrap := func(name string, task func() error) func() error {
			wrapped.Add(1)
			taskName.Store(name)
			return task
		}
		dispatcher := NewDonationDispatcher(notifier, 1, wrap)

		notifier.On("NotifyDonation", mock.Anything, mock.Anything).Return(nil)

		dispatcher.Publish(testDonationEvent())
		dispatcher.Stop()

		assert.Equal(t, int32(1), wrapped.Load())
		assert.Equal(t, "NotifyDonation(txn-1)", taskName.Load())
	})

	t.Run("DropsAfterStop", func(t *testing.T) {
		notifier := &MockDonationNotifier{}
		dispatcher := NewDonationDispatcher(notifier, 1, nil)
		dispatcher.Stop()

		dispatcher.Publish(testDonationEvent())

		notifier.AssertNotCalled(t, "NotifyDonation", mock.Anything, mock.Anything)
	})

	t.Run("ZeroWorkersStillRuns", func(t *testing.T) {
		notifier := &MockDonationNotifier{}
		dispatcher := NewDonationDispatcher(notifier, 0, nil)

		notifier.On("NotifyDonation", mock.Anything, mock.Anything).Return(nil).Once()

		dispatcher.Publish(testDonationEvent())
		dispatcher.Stop()

		notifier.AssertExpectations(t)
	})
}
