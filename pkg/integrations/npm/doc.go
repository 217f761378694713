// Package npm provides an HTTP client for the npm registry API.
//
// # Usage
//
//	client := npm.NewClient("", integrations.Options{})
//
//	meta, err := client.FetchMetadata(ctx, "react", "18.3.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(meta.RepositoryURL)
//
// # Metadata
//
// Only the version document is requested
// (https://registry.npmjs.org/{name}/{version}). The repository field may be
// a string or an object with a "url"; when absent the homepage is used. The
// result is normalized with [integrations.NormalizeRepoURL].
//
// [PackageURL] builds the npmjs.com store link, which needs no network call.
package npm
