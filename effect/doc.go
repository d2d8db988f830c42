// Package effect provides lazy, composable units of work that declare the
// services they need before they run.
//
// An Effect[T] describes a computation producing a T. It names, at
// construction time, which dependencies it requires (store, cache, log,
// transport), and does nothing until Run is called with a Dependencies map.
//
// # Building Effects
//
// Most Effects start from an accessor:
//   - WithStore, WithCache, WithLog, WithTransport wrap a step using one handle
//   - WithAllDependencies wraps a step that needs several handles
//   - Pure, Fail and FromFunc need no handles at all
//
// They are composed with:
//   - Map / TryMap: transform the result
//   - Chain / Then: sequence dependent steps
//   - All, Race, Sequence: aggregate several Effects
//
// Composition only builds closures. The same Effect value can be run against
// a production map and a test map without being redefined.
//
// # Running
//
// Run checks the supplied map against Requires() and fails with
// ErrMissingDependency naming the absent keys before any step executes.
// Errors from steps are returned unchanged; a panic inside a step becomes
// the run error.
//
// Example:
//
//	greet := effect.Chain(
//	    effect.WithCache(func(ctx context.Context, c effect.Cache) ([]byte, error) {
//	        v, _, err := c.Get(ctx, "name")
//	        return v, err
//	    }),
//	    func(name []byte) effect.Effect[struct{}] {
//	        return effect.WithLog(func(_ context.Context, l effect.Logger) (struct{}, error) {
//	            l.Info("hello", "name", string(name))
//	            return struct{}{}, nil
//	        })
//	    },
//	).Require(effect.KeyLog)
//
//	_, err := greet.Run(ctx, deps)
package effect
