// package models defines the data model for the airlift playlist curator
package models
