// Package jira implements the tracker search connector against the Jira
// REST API. It authenticates with a bearer token, paginates the search
// endpoint, throttles requests and classifies API failures into the
// domain error taxonomy.
package jira
