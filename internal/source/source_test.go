package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/symfonymcp/internal/schema"
)

const overrideXML = `<config><acme enabled="true"/></config>`

func writeOverride(t *testing.T, root, content string) string {
	t.Helper()
	dir := filepath.Join(root, ".idea")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "symfony2-config.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBundledDocumentParses(t *testing.T) {
	doc, err := schema.ParseBytes(Bundled(), BundledID)
	require.NoError(t, err)

	sections := doc.Sections()
	for _, want := range []string{"framework", "doctrine", "twig", "monolog", "swiftmailer", "security"} {
		assert.Contains(t, sections, want)
	}
}

func TestLocator(t *testing.T) {
	root := t.TempDir()
	loc := NewLocator(".idea/symfony2-config.xml")

	src := loc.Locate(root)
	assert.True(t, src.IsBundled())
	assert.Equal(t, BundledID, src.ID())
	assert.Equal(t, BundledID, src.String())

	path := writeOverride(t, root, overrideXML)
	src = loc.Locate(root)
	assert.False(t, src.IsBundled())
	assert.Equal(t, path, src.Path)
	assert.Equal(t, int64(len(overrideXML)), src.Size)
	assert.Contains(t, src.ID(), path+"@")

	// A directory at the override location is ignored.
	other := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(other, ".idea", "symfony2-config.xml"), 0o755))
	assert.True(t, loc.Locate(other).IsBundled())

	assert.True(t, NewLocator("").Locate(root).IsBundled())
}

func TestLocator_AbsoluteOverride(t *testing.T) {
	root := t.TempDir()
	path := writeOverride(t, root, overrideXML)

	loc := NewLocator(path)
	assert.Equal(t, path, loc.OverrideFile("/somewhere/else"))
	assert.Equal(t, path, loc.Locate("/somewhere/else").Path)
}

func TestCache_Bundled(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	first, err := c.Get(ctx, Source{})
	require.NoError(t, err)
	second, err := c.Get(ctx, Source{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Has(""))
}

func TestCache_OverrideReloadsOnChange(t *testing.T) {
	root := t.TempDir()
	path := writeOverride(t, root, overrideXML)
	loc := NewLocator(".idea/symfony2-config.xml")
	c := NewCache()
	ctx := context.Background()

	doc, err := c.Get(ctx, loc.Locate(root))
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, doc.Sections())

	same, err := c.Get(ctx, loc.Locate(root))
	require.NoError(t, err)
	assert.Same(t, doc, same)

	require.NoError(t, os.WriteFile(path, []byte(`<config><acme/><other/></config>`), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	reloaded, err := c.Get(ctx, loc.Locate(root))
	require.NoError(t, err)
	assert.NotSame(t, doc, reloaded)
	assert.Equal(t, []string{"acme", "other"}, reloaded.Sections())
	assert.Equal(t, 1, c.Len())
}

func TestCache_FailedLoadNotCached(t *testing.T) {
	root := t.TempDir()
	writeOverride(t, root, "<config><broken>")
	src := NewLocator(".idea/symfony2-config.xml").Locate(root)
	c := NewCache()

	_, err := c.Get(context.Background(), src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrSchemaLoad))
	assert.Equal(t, 0, c.Len())
}

func TestCache_MissingFile(t *testing.T) {
	c := NewCache()
	_, err := c.Get(context.Background(), Source{Path: filepath.Join(t.TempDir(), "gone.xml")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrSchemaLoad))
}

func TestCache_ConcurrentLoadsCoalesce(t *testing.T) {
	c := NewCache()
	var loads atomic.Int32
	release := make(chan struct{})
	c.parseBundled = func() (*schema.Document, error) {
		loads.Add(1)
		<-release
		return schema.ParseBytes(Bundled(), BundledID)
	}

	var wg sync.WaitGroup
	docs := make([]*schema.Document, 8)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := c.Get(context.Background(), Source{})
			assert.NoError(t, err)
			docs[i] = doc
		}(i)
	}

	// Give every goroutine time to join the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, d := range docs {
		assert.Same(t, docs[0], d)
	}
}

func TestCache_ContextCancelled(t *testing.T) {
	c := NewCache()
	block := make(chan struct{})
	defer close(block)
	c.parseBundled = func() (*schema.Document, error) {
		<-block
		return nil, errors.New("unreachable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, Source{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCache_Invalidate(t *testing.T) {
	root := t.TempDir()
	writeOverride(t, root, overrideXML)
	src := NewLocator(".idea/symfony2-config.xml").Locate(root)
	c := NewCache()

	_, err := c.Get(context.Background(), src)
	require.NoError(t, err)
	require.True(t, c.Has(src.Path))

	c.Invalidate(src.Path)
	assert.False(t, c.Has(src.Path))
	c.Invalidate(src.Path)
}

func TestWatcher_InvalidatesOnWrite(t *testing.T) {
	root := t.TempDir()
	path := writeOverride(t, root, overrideXML)
	src := NewLocator(".idea/symfony2-config.xml").Locate(root)
	c := NewCache()

	w, err := NewWatcher(c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, w.Watch(path))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	_, err = c.Get(ctx, src)
	require.NoError(t, err)
	require.True(t, c.Has(path))

	require.NoError(t, os.WriteFile(path, []byte(`<config><changed/></config>`), 0o644))

	assert.Eventually(t, func() bool { return !c.Has(path) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher(NewCache())
	require.NoError(t, err)
	defer w.Close()

	assert.NoError(t, w.Watch(filepath.Join(t.TempDir(), "nope", "symfony2-config.xml")))
}
