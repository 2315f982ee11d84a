// Command liveserver runs the demo application on a liveserver Server.
//
//	liveserver serve                 # listen on LISTEN_HOST:LISTEN_PORT (defaults: all interfaces, ephemeral port)
//	liveserver serve --port 8080     # explicit port
//	liveserver probe /               # start, fetch one path, stop
//	liveserver routes                # list demo routes
package main
