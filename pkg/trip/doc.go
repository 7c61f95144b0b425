// Package trip loads trip documents (trip-details.json, or the YAML
// equivalent) from files, fs.FS trees or HTTP endpoints and decodes them into
// ordered datatree values. Loaders are implemented in internal/trip/loader.
package trip
