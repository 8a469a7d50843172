// Package formdef loads form validation definitions from YAML and keeps them
// current while the file changes on disk.
//
// A definition file declares any number of forms:
//
//	forms:
//	  signup:
//	    settings:
//	      messages_place: "#errors"
//	      stop_on_error: true
//	      error_time: 3s
//	    rules:
//	      emailFormat:
//	        kind: email
//	        message: "Invalid email"
//	    fields:
//	      - name: email
//	        rules: [required, emailFormat]
//	        auto: true
//
// Fields are a list so registration order is explicit. Definition.Config
// converts a form into a validation.Config for Attach.
//
// Holder keeps the parsed file, reloads it on demand, on SIGHUP or on file
// system events, and keeps serving the previous version when a reload fails.
package formdef
