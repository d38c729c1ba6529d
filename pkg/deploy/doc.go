// Package deploy places mapped assets from the source tree into the
// destination tree.
//
// For every category and entry, in mapping order, the deployer resolves
//
//	<source_root>/<category>/<source>  ->  <destination_root>/<dest>
//
// creates any missing parent directories and copies the source bytes over
// whatever is already at the destination. Copying is content-agnostic.
//
// By default every entry is attempted and all failures are returned together
// as an errors.List (fail-complete). DeployOptions.FailFast stops at the first
// failing entry instead. Deployment is not atomic across entries: a failed
// run may leave earlier entries deployed.
package deploy
