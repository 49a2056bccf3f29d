package xltrans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t Translator, sleeper *noSleep, opts ...CacheOption) *TranslationCache {
	opts = append([]CacheOption{WithSleep(sleeper.sleep)}, opts...)
	return NewTranslationCache(t, "zh-cn", "en", opts...)
}

func TestTranslationCache_Compose(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"测试": "Test"})
	cache := newTestCache(fake, &noSleep{})

	got, err := cache.Translate(context.Background(), "测试")
	require.NoError(t, err)
	assert.Equal(t, "Test\n测试", got)
}

func TestTranslationCache_TrimsInputAndTranslation(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"合计": "  Total \n"})
	cache := newTestCache(fake, &noSleep{})

	got, err := cache.Translate(context.Background(), "  合计\n")
	require.NoError(t, err)
	assert.Equal(t, "Total\n合计", got)
	assert.Equal(t, []string{"合计"}, fake.calls)
}

func TestTranslationCache_HitSkipsTranslatorAndDelay(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"测试": "Test"})
	sleeper := &noSleep{}
	cache := newTestCache(fake, sleeper)
	ctx := context.Background()

	first, err := cache.Translate(ctx, "测试")
	require.NoError(t, err)
	second, err := cache.Translate(ctx, " 测试 ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.count("测试"))
	assert.Equal(t, 1, sleeper.calls, "delay only after a miss")
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Hits())
	assert.Equal(t, 1, cache.Misses())
}

func TestTranslationCache_ZeroDelayNeverSleeps(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"测试": "Test"})
	sleeper := &noSleep{}
	cache := newTestCache(fake, sleeper, WithCacheDelay(0))

	_, err := cache.Translate(context.Background(), "测试")
	require.NoError(t, err)
	assert.Equal(t, 0, sleeper.calls)
}

func TestTranslationCache_FailureNotCached(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"测试": "Test"})
	boom := errors.New("service unavailable")
	fake.fail["测试"] = boom
	cache := newTestCache(fake, &noSleep{})
	ctx := context.Background()

	_, err := cache.Translate(ctx, "测试")
	require.Error(t, err)
	var te *TranslationError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "测试", te.Text)
	assert.Equal(t, "zh-cn", te.Source)
	assert.Equal(t, "en", te.Target)
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsTranslationError(err))

	_, ok := cache.Lookup("测试")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Failures())

	// The service recovers; the next occurrence is attempted again.
	delete(fake.fail, "测试")
	got, err := cache.Translate(ctx, "测试")
	require.NoError(t, err)
	assert.Equal(t, "Test\n测试", got)
	assert.Equal(t, 2, fake.count("测试"))
}

func TestTranslationCache_EmptyTranslationFails(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"测试": "   "})
	cache := newTestCache(fake, &noSleep{})

	_, err := cache.Translate(context.Background(), "测试")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyTranslation)
	assert.True(t, IsTranslationError(err))
	assert.Equal(t, 0, cache.Len())
}

func TestTranslationCache_CallTimeout(t *testing.T) {
	slow := TranslatorFunc(func(ctx context.Context, text, src, tgt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	cache := newTestCache(slow, &noSleep{}, WithCacheCallTimeout(10*time.Millisecond))

	_, err := cache.Translate(context.Background(), "测试")
	require.Error(t, err)
	assert.True(t, IsTranslationError(err), "a per-call timeout is a cell failure")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranslationCache_CancelledContextIsFatal(t *testing.T) {
	fake := newFakeTranslator(map[string]string{"测试": "Test"})
	cache := newTestCache(fake, &noSleep{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Translate(ctx, "测试")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTranslationError(err))
	assert.Empty(t, fake.calls)
}

func TestTranslationCache_CancelDuringCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := TranslatorFunc(func(ctx context.Context, text, src, tgt string) (string, error) {
		cancel()
		return "", errors.New("aborted")
	})
	cache := newTestCache(tr, &noSleep{})

	_, err := cache.Translate(ctx, "测试")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTranslationError(err))
	assert.Equal(t, 0, cache.Failures())
}

func TestTranslationCache_PassesLocales(t *testing.T) {
	var gotSrc, gotTgt string
	tr := TranslatorFunc(func(ctx context.Context, text, src, tgt string) (string, error) {
		gotSrc, gotTgt = src, tgt
		return "Test", nil
	})
	cache := NewTranslationCache(tr, "zh-tw", "fr", WithCacheDelay(0))

	_, err := cache.Translate(context.Background(), "測試")
	require.NoError(t, err)
	assert.Equal(t, "zh-tw", gotSrc)
	assert.Equal(t, "fr", gotTgt)
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
