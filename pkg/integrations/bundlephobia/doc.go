// Package bundlephobia provides an HTTP client for the bundlephobia size API.
//
// # Usage
//
//	client := bundlephobia.NewClient("", integrations.Options{})
//
//	info, err := client.FetchSize(ctx, "react@18.3.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.Size, info.Gzip)
//
// # Query Format
//
// The service takes one query parameter, "package", holding the escaped
// "name@version" string. The response must carry numeric "size" and "gzip"
// fields; "version" and "dependencyCount" are optional. Anything else is an
// error: [integrations.ErrIncomplete] for missing fields,
// [integrations.ErrDecode] for a non-JSON body and [integrations.ErrNetwork]
// or [integrations.ErrNotFound] for failed requests.
package bundlephobia
