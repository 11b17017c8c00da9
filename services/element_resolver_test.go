package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByIDSlug(t *testing.T) {
	page := newFakePage()
	input := newFakeElement("")
	page.add("#first_name", input)

	r := NewElementResolver(page)
	el, err := r.Resolve("First Name")
	require.NoError(t, err)
	assert.Same(t, input, el.(*fakeElement))
}

func TestResolveByLabelFor(t *testing.T) {
	page := newFakePage()
	input := newFakeElement("")
	lab := newFakeElement("Email Address *")
	lab.attrs["for"] = "email-field"
	page.add("label", lab)
	page.add("#email-field", input)

	r := NewElementResolver(page)
	el, err := r.Resolve("Email Address")
	require.NoError(t, err)
	assert.Same(t, input, el.(*fakeElement))
}

func TestResolveByNestedLabelControl(t *testing.T) {
	page := newFakePage()
	input := newFakeElement("")
	lab := newFakeElement("Phone Number")
	lab.children["input, select, textarea"] = []*fakeElement{input}
	page.add("label", lab)

	r := NewElementResolver(page)
	el, err := r.Resolve("Phone Number")
	require.NoError(t, err)
	assert.Same(t, input, el.(*fakeElement))
}

func TestResolveSkipsHiddenElements(t *testing.T) {
	page := newFakePage()
	hidden := newFakeElement("")
	hidden.visible = false
	page.add("#first_name", hidden)

	r := NewElementResolver(page)
	_, err := r.Resolve("First Name")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestResolveNotFound(t *testing.T) {
	page := newFakePage()
	r := NewElementResolver(page)
	_, err := r.Resolve("Does Not Exist")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestFillWithRetrySucceedsAndVerifies(t *testing.T) {
	page := newFakePage()
	input := newFakeElement("")
	page.add("#first_name", input)

	r := NewElementResolver(page)
	r.wait = func(ctx context.Context, d time.Duration) error { return nil }

	ok, err := r.FillWithRetry(context.Background(), "First Name", "Jordan")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Jordan", input.value)
}

func TestFillWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	page := newFakePage()
	input := newFakeElement("")
	input.swallowed = true // Fill succeeds but the page never takes the value
	page.add("#first_name", input)

	waits := 0
	r := NewElementResolver(page)
	r.wait = func(ctx context.Context, d time.Duration) error { waits++; return nil }

	ok, err := r.FillWithRetry(context.Background(), "First Name", "Jordan")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, r.maxRetries-1, waits)
}

func TestFillWithRetryHonorsCancellation(t *testing.T) {
	page := newFakePage()
	r := NewElementResolver(page)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.FillWithRetry(ctx, "First Name", "Jordan")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFillWithRetryRecoversOnSecondAttempt(t *testing.T) {
	page := newFakePage()
	input := newFakeElement("")
	input.swallowed = true
	page.add("#first_name", input)

	r := NewElementResolver(page)
	r.wait = func(ctx context.Context, d time.Duration) error {
		// The form re-renders between attempts and starts accepting input.
		input.swallowed = false
		return nil
	}

	ok, err := r.FillWithRetry(context.Background(), "First Name", "Jordan")
	require.NoError(t, err)
	assert.True(t, ok)
}
