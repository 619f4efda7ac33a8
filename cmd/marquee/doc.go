// Command marquee is the movie club's catalog maintenance CLI: it imports
// hand-collected pick exports into the club database, reconciling
// participants and movies against existing records.
package main
