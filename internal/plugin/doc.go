// Package plugin runs the version-file plugin: an untrusted WebAssembly
// module that reads and writes the project's version on the tool's behalf.
//
// A plugin moves through a fixed sequence per invocation. The descriptor's
// locator is resolved to a URL (ResolveLocator), the artifact is fetched into
// a content-addressed cache and verified against its declared digest
// (Cache.FetchAndCache), the module is instantiated with a filesystem mount
// limited to the project root (Sandbox.Load), and finally one ABI call is
// made (Instance.GetVersion or Instance.SetVersion).
package plugin
