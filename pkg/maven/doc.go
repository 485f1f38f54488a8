// Package maven parses Maven repository documents and resolves an
// artifact's latest release into a [deps.Record].
//
// # Documents
//
// A maven-metadata.xml document names an artifact and its versions:
//
//	<metadata>
//	  <groupId>io.ktor</groupId>
//	  <artifactId>ktor-client</artifactId>
//	  <versioning><latest>2.3.4</latest></versioning>
//	</metadata>
//
// The release descriptor (POM) of the latest version lives next to it at
// {dir}/{latest}/{artifactId}-{latest}.pom and declares dependencies under
// project/dependencies, or only under project/dependencyManagement for
// BOM-style artifacts.
//
// Element lookup ignores XML namespaces: producers disagree on whether they
// declare the POM default namespace, and some use prefixes.
package maven
